package dto

type PlaceBetRequest struct {
	Team        string `json:"team"`
	MatchID     int    `json:"match_id"`
	Prediction  string `json:"prediction"`
	AmountLakhs int64  `json:"amount_lakhs"` // em lakhs; 1 = ₹100.000
}

type ProposeResultRequest struct {
	MatchID int    `json:"match_id"`
	Winner  string `json:"winner"`
}

type ConfirmResultRequest struct {
	Token string `json:"token"`
}
