package entities

import "time"

type PromotionRequest struct {
	Code           string `json:"code"`
	Kind           string `json:"kind"`
	Value          int64  `json:"value"`
	Cap            int64  `json:"cap,omitempty"`
	MinTransaction int64  `json:"min_transaction,omitempty"`
	Quota          int    `json:"quota,omitempty"`
	StartsAt       string `json:"starts_at"`
	EndsAt         string `json:"ends_at"`
	Status         string `json:"status,omitempty"`
}

type PromotionResponse struct {
	ID             int       `json:"id"`
	Code           string    `json:"code"`
	Kind           string    `json:"kind"`
	Value          int64     `json:"value"`
	Cap            int64     `json:"cap"`
	MinTransaction int64     `json:"min_transaction"`
	Quota          int       `json:"quota"`
	UsedCount      int       `json:"used_count"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	Status         string    `json:"status"`
}
