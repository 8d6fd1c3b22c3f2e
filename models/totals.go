// models/totals.go
package models

// Totals holds the derived front-9/back-9/total gross and net sums for one
// player. Unentered holes contribute zero; a totals value never blocks on a
// missing score.
type Totals struct {
	FrontGross int `json:"frontGross"`
	BackGross  int `json:"backGross"`
	TotalGross int `json:"totalGross"`
	FrontNet   int `json:"frontNet"`
	BackNet    int `json:"backNet"`
	TotalNet   int `json:"totalNet"`
}
