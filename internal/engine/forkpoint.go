package engine

import (
	"errors"
	"regexp"
	"strings"

	macheteerrors "machete.dev/machete/internal/errors"
)

// rebaseFinishPattern matches the reflog subject git writes on the rebased branch,
// capturing the commit it was rebased onto
var rebaseFinishPattern = regexp.MustCompile(`^(?:pull --rebase|rebase(?: -i)?)(?: \(finish\)| finished): \S+ onto ([0-9a-f]{7,64})`)

// trivialActionPrefixes mark reflog entries that move a branch without any work on it
var trivialActionPrefixes = []string{
	"branch: Created from",
	"branch: Reset to",
	"branch: renamed",
	"reset: moving to",
	"fetch . ",
	"pull . ",
}

func isTrivialAction(action string) bool {
	for _, prefix := range trivialActionPrefixes {
		if strings.HasPrefix(action, prefix) {
			return true
		}
	}
	return rebaseFinishPattern.MatchString(action)
}

// filteredReflog drops trivial entries from the branch's reflog
func (q *queries) filteredReflog(branch string) ([]ReflogEntry, error) {
	entries, err := q.reflog(branch)
	if err != nil {
		return nil, err
	}
	var filtered []ReflogEntry
	for _, e := range entries {
		if !isTrivialAction(e.Action) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// forkPointCandidate is the commit a reflog entry proposes as the branch's base.
// A finished rebase proposes the commit it rebased onto; anything else proposes
// the commit the branch pointed to.
func forkPointCandidate(e ReflogEntry) (string, bool) {
	if m := rebaseFinishPattern.FindStringSubmatch(e.Action); m != nil {
		return m[1], true
	}
	return e.Commit, false
}

// resolveForkPoint scans the branch's reflog, most recent first, for the first
// candidate that is in the branch's history and was part of the upstream: either
// reachable from its current tip or recorded in its reflog. Entries of equal
// recency keep reflog order. Without such a candidate the merge-base is used.
func (q *queries) resolveForkPoint(branch, upstream string, tip, upstreamTip Commit, mergeBase string) (string, error) {
	entries, err := q.reflog(branch)
	if err != nil {
		return "", err
	}
	upstreamEntries, err := q.reflog(upstream)
	if err != nil {
		return "", err
	}
	upstreamReflog := make(map[string]bool, len(upstreamEntries))
	for _, e := range upstreamEntries {
		upstreamReflog[e.Commit] = true
	}

	seen := make(map[string]bool)
	for _, e := range entries {
		candidate, fromRebase := forkPointCandidate(e)
		if fromRebase {
			// the onto commit may be abbreviated or long gone
			c, err := q.commit(candidate)
			if errors.Is(err, macheteerrors.ErrUnknownRevision) {
				q.logger.Debug("skipping reflog entry of %s: %v", branch, err)
				continue
			}
			if err != nil {
				return "", err
			}
			candidate = c.Hash
		}
		if candidate == "" || seen[candidate] {
			continue
		}
		seen[candidate] = true

		inBranch, err := q.isAncestor(candidate, tip.Hash)
		if err != nil {
			return "", err
		}
		if !inBranch {
			continue
		}

		if upstreamReflog[candidate] {
			q.logger.Debug("fork point of %s: %s from reflog (recorded in %s's reflog)", branch, short(candidate), upstream)
			return candidate, nil
		}
		inUpstream, err := q.isAncestor(candidate, upstreamTip.Hash)
		if err != nil {
			return "", err
		}
		if inUpstream {
			q.logger.Debug("fork point of %s: %s from reflog (%s)", branch, short(candidate), e.Action)
			return candidate, nil
		}
	}

	q.logger.Debug("fork point of %s: no reflog candidate, using merge-base %s", branch, short(mergeBase))
	return mergeBase, nil
}

// rebasedSince reports whether the branch's reflog records a finished rebase
// after it last pointed at commit
func (q *queries) rebasedSince(branch, commit string) (bool, error) {
	entries, err := q.reflog(branch)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if rebaseFinishPattern.MatchString(e.Action) {
			return true, nil
		}
		if e.Commit == commit {
			return false, nil
		}
	}
	return false, nil
}

func short(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
