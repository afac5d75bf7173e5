package models

import "errors"

var (
	ErrInvalidSymbol   = errors.New("invalid symbol")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidBar      = errors.New("invalid bar (high < low)")
	ErrInvalidVolume   = errors.New("invalid volume")
	ErrInvalidSignalID = errors.New("invalid signal ID")
	ErrScoreOutOfRange = errors.New("total score out of [0,100]")
	ErrUnorderedBars   = errors.New("bars must be ascending by date")
)
