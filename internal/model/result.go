package model

import "math"

// DocumentResult is the boundary output of the pipeline for one document:
// a field map for bureau reports, an ordered row list for GST returns, and
// a single overall confidence scalar.
type DocumentResult struct {
	BureauParameters map[string]ExtractedValue `json:"bureau_parameters,omitempty"`
	GstSales         []SalesRow                `json:"gst_sales,omitempty"`

	OverallConfidence float64 `json:"overall_confidence_score"`
}

// ComputeOverallConfidence sets OverallConfidence to the mean of all
// strictly positive individual confidences, rounded to two decimals.
// Zero-confidence fields are excluded from the average, not counted as
// zero contributions.
func (r *DocumentResult) ComputeOverallConfidence() {
	var sum float64
	var n int
	for _, v := range r.BureauParameters {
		if v.Confidence > 0 {
			sum += v.Confidence
			n++
		}
	}
	for _, row := range r.GstSales {
		if row.Confidence > 0 {
			sum += row.Confidence
			n++
		}
	}
	if n == 0 {
		r.OverallConfidence = 0
		return
	}
	r.OverallConfidence = math.Round(sum/float64(n)*100) / 100
}
