package domain

import "time"

// ActivationCode is a single-use token exchanged for account activation.
// Once IsUsed flips to true it never reverts; at most one account may ever
// be the holder.
type ActivationCode struct {
	Code      string
	IsUsed    bool
	UsedBy    *string
	UsedAt    *time.Time
	CreatedAt time.Time
}
