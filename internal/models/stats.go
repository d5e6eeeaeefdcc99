package models

import (
	"math"
	"strings"
)

// Stats is the dashboard summary over all documents.
type Stats struct {
	Total         int     `json:"total"`
	Processed     int     `json:"processed"`
	StrongMatches int     `json:"strongMatches"`
	AverageScore  float64 `json:"averageScore"`
}

// ComputeStats averages scores over processed documents only, rounded to one
// decimal. AverageScore is 0 when nothing has been processed.
func ComputeStats(docs []*Document) Stats {
	var st Stats
	sum := 0
	for _, d := range docs {
		st.Total++
		if !d.Processed {
			continue
		}
		st.Processed++
		sum += d.Score()
		if d.Score() >= StrongMatchScore {
			st.StrongMatches++
		}
	}
	if st.Processed > 0 {
		st.AverageScore = math.Round(float64(sum)/float64(st.Processed)*10) / 10
	}
	return st
}

// FilterDocuments keeps documents whose title, agency or RFP number contains
// q, ignoring case. A blank q returns docs unchanged.
func FilterDocuments(docs []*Document, q string) []*Document {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return docs
	}
	out := make([]*Document, 0, len(docs))
	for _, d := range docs {
		for _, field := range []*string{d.Title, d.Agency, d.RFPNumber} {
			if field != nil && strings.Contains(strings.ToLower(*field), q) {
				out = append(out, d)
				break
			}
		}
	}
	return out
}
