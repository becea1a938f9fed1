package project

// Project is a submitted hackathon entry.
type Project struct {
	ID                int64              `json:"id"`
	Name              string             `json:"name"`
	Description       string             `json:"description,omitempty"`
	URL               string             `json:"url,omitempty"`
	Image             string             `json:"image,omitempty"`
	TeamName          string             `json:"teamName"`
	TeamNumber        string             `json:"teamNumber"`
	TeamURL           string             `json:"teamUrl,omitempty"`
	UV                int64              `json:"uv"`
	Investment        int64              `json:"investment"`
	InvestmentRecords []InvestmentRecord `json:"investmentRecords"`

	// Rank, Qualified and WeightedScore are derived by the ranking engine
	// for the current stage and never persisted.
	Rank          int     `json:"rank,omitempty"`
	Qualified     bool    `json:"qualified"`
	WeightedScore float64 `json:"weightedScore,omitempty"`
}

// InvestmentRecord is one investor's contribution as seen from the project.
type InvestmentRecord struct {
	InvestorName  string `json:"name"`
	Title         string `json:"title,omitempty"`
	Avatar        string `json:"avatar,omitempty"`
	Amount        int64  `json:"amount"`
	InitialAmount int64  `json:"initialAmount,omitempty"`
}

// Clone returns a copy that shares no slices with p.
func (p Project) Clone() Project {
	out := p
	if p.InvestmentRecords != nil {
		out.InvestmentRecords = append([]InvestmentRecord(nil), p.InvestmentRecords...)
	}
	return out
}

// CloneAll copies every project in list.
func CloneAll(list []Project) []Project {
	if list == nil {
		return nil
	}
	out := make([]Project, len(list))
	for i, p := range list {
		out[i] = p.Clone()
	}
	return out
}

// Find returns the project with the given id.
func Find(list []Project, id int64) (Project, bool) {
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}
