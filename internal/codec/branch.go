package codec

import (
	"fmt"
	"strings"
)

// Branch is a game release channel. Its code sizes the key id slice of asset
// content during decoding.
type Branch string

const (
	BranchQA    Branch = "qa"
	BranchStage Branch = "stage"
	BranchCert  Branch = "cert"
	BranchPTB   Branch = "ptb"
	BranchLive  Branch = "live"
)

// Branches lists every known branch in menu order.
var Branches = []Branch{BranchQA, BranchStage, BranchCert, BranchPTB, BranchLive}

var branchNames = map[Branch]string{
	BranchQA:    "QA",
	BranchStage: "Staging",
	BranchCert:  "Certification",
	BranchPTB:   "Player Test Build",
	BranchLive:  "Live",
}

// Name returns the human-readable branch name.
func (b Branch) Name() string {
	if n, ok := branchNames[b]; ok {
		return n
	}
	return string(b)
}

// ParseBranch accepts a branch code ("live"), its one-letter shortcut ("l")
// or its human name ("Player Test Build"), case-insensitively.
func ParseBranch(s string) (Branch, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, b := range Branches {
		if s == string(b) || s == string(b)[:1] || s == strings.ToLower(b.Name()) {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown branch %q", s)
}
