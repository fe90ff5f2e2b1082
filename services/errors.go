// Package services holds the mission domain logic: the daily completion
// toggle, ranking aggregation, the personal dashboard and points reconciliation.
package services

import "errors"

var (
	ErrMissionNotFound = errors.New("mission not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidCategory = errors.New("invalid category")
)
