package stage

// Stage is one of the four sequential contest phases.
type Stage string

const (
	Selection  Stage = "selection"
	Lock       Stage = "lock"
	Investment Stage = "investment"
	Ended      Stage = "ended"
)

// All lists the stages in contest order.
var All = []Stage{Selection, Lock, Investment, Ended}

// Info is the display payload served for a stage.
type Info struct {
	Code      Stage  `json:"code"`
	Name      string `json:"name"`
	Time      string `json:"time"`
	Rule      string `json:"rule"`
	CanInvest bool   `json:"canInvest"`
}

var infos = map[Stage]Info{
	Selection: {
		Code: Selection,
		Name: "海选期",
		Time: "10月24日24:00 - 11月7日12:00",
		Rule: "本阶段以累计UV排名，如果UV相同，则按队伍序号排名。本阶段结束，前15名晋级，在投资期可以接受投资人投资",
	},
	Lock: {
		Code: Lock,
		Name: "锁定期",
		Time: "11月7日12:00 - 11月14日0:00",
		Rule: "本阶段期间，已晋级的15个作品一个队列，按UV排名；其他作品处在非晋级区，单独一个队列，依然按照UV排名",
	},
	Investment: {
		Code:      Investment,
		Name:      "投资期",
		Time:      "11月14日0:00 - 18:00",
		Rule:      "本阶段，投资人可将虚拟投资金投给晋级的15个作品。本阶段排名按照权重值（UV*40%+投资金额*60%）排序，权重相同按投资金额高低排序，投资金额相同按队伍序号排序",
		CanInvest: true,
	},
	Ended: {
		Code: Ended,
		Name: "活动结束",
		Time: "11月14日18:00之后",
		Rule: "活动结束，所有作品不再更新UV、投资额数据，排名不变",
	},
}

// FromCode maps a stage code to a Stage. Unknown codes fall back to Selection.
func FromCode(code string) Stage {
	s := Stage(code)
	if _, ok := infos[s]; ok {
		return s
	}
	return Selection
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	_, ok := infos[s]
	return ok
}

// Info returns the display payload for the stage.
func (s Stage) Info() Info {
	if info, ok := infos[s]; ok {
		return info
	}
	return infos[Selection]
}

// CanInvest is true only during the investment stage.
func (s Stage) CanInvest() bool {
	return s.Info().CanInvest
}

func (s Stage) order() int {
	for i, candidate := range All {
		if candidate == s {
			return i
		}
	}
	return 0
}

// AtOrAfter reports whether s comes no earlier than other in contest order.
func (s Stage) AtOrAfter(other Stage) bool {
	return s.order() >= other.order()
}

// QualificationActive is true once the selection window has closed.
func (s Stage) QualificationActive() bool {
	return s.AtOrAfter(Lock)
}

// Weighted reports whether ranking uses the weighted uv/investment score.
func (s Stage) Weighted() bool {
	return s.AtOrAfter(Investment)
}

func (s Stage) String() string {
	return string(s)
}
