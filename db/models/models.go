package models

import "gorm.io/gorm"

type DecodeRecord struct {
	gorm.Model
	InputHash string `gorm:"index"`
	InputSize int
	Preview   string
	Output    string
	Status    DecodeStatus `gorm:"index"`
	Error     string
}

type DecodeStatus = string

const (
	StatusOK        DecodeStatus = "ok"
	StatusMalformed DecodeStatus = "malformed"
	StatusTruncated DecodeStatus = "truncated"
	StatusTrailing  DecodeStatus = "trailing"
	StatusTooDeep   DecodeStatus = "too_deep"
)
