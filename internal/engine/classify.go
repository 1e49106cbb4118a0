package engine

type classification struct {
	status    SyncToParentStatus
	forkPoint *Commit
}

// classify computes the sync status of branch relative to upstream.
//
// Merge detection runs first: a branch equal to its upstream counts as merged only
// if its reflog shows work beyond creation and resets, and a strict ancestor of the
// upstream is always merged. Then the fork point decides between the in-sync,
// out-of-sync and diverged cases. A fork point the upstream rewrote away stays
// usable only when the upstream was rebased since.
func (q *queries) classify(branch, upstream string, tip, upstreamTip Commit, squashMergeDetection bool) (classification, error) {
	if tip.Hash == upstreamTip.Hash {
		filtered, err := q.filteredReflog(branch)
		if err != nil {
			return classification{}, err
		}
		fp := upstreamTip
		if len(filtered) > 0 {
			return classification{status: MergedToParent, forkPoint: &fp}, nil
		}
		return classification{status: InSync, forkPoint: &fp}, nil
	}

	mergedByAncestry, err := q.isAncestor(tip.Hash, upstreamTip.Hash)
	if err != nil {
		return classification{}, err
	}
	if mergedByAncestry {
		fp := tip
		return classification{status: MergedToParent, forkPoint: &fp}, nil
	}

	mergeBase, ok, err := q.mergeBase(tip.Hash, upstreamTip.Hash)
	if err != nil {
		return classification{}, err
	}
	if !ok {
		return classification{status: NoRelation}, nil
	}

	if squashMergeDetection && tip.TreeHash != "" {
		merged, err := q.treeMergedInto(tip, upstreamTip, mergeBase)
		if err != nil {
			return classification{}, err
		}
		if merged {
			fpCommit, err := q.commit(mergeBase)
			if err != nil {
				return classification{}, err
			}
			return classification{status: MergedToParent, forkPoint: &fpCommit}, nil
		}
	}

	forkPoint, err := q.resolveForkPoint(branch, upstream, tip, upstreamTip, mergeBase)
	if err != nil {
		return classification{}, err
	}
	fpCommit, err := q.commit(forkPoint)
	if err != nil {
		return classification{}, err
	}

	upstreamContained, err := q.isAncestor(upstreamTip.Hash, tip.Hash)
	if err != nil {
		return classification{}, err
	}
	if upstreamContained {
		if forkPoint == upstreamTip.Hash {
			return classification{status: InSync, forkPoint: &fpCommit}, nil
		}
		return classification{status: InSyncButForkPointOff, forkPoint: &fpCommit}, nil
	}

	forkPointInUpstream, err := q.isAncestor(forkPoint, upstreamTip.Hash)
	if err != nil {
		return classification{}, err
	}
	if forkPointInUpstream {
		return classification{status: OutOfSync, forkPoint: &fpCommit}, nil
	}

	// The upstream was restacked: its old commits still sit below the fork point
	restacked, err := q.rebasedSince(upstream, forkPoint)
	if err != nil {
		return classification{}, err
	}
	if restacked {
		q.logger.Debug("%s was rebased since %s forked from it at %s", upstream, branch, short(forkPoint))
		return classification{status: OutOfSync, forkPoint: &fpCommit}, nil
	}

	q.logger.Debug("fork point %s of %s is no longer in %s's history", short(forkPoint), branch, upstream)
	return classification{status: Diverged}, nil
}

// treeMergedInto reports whether a commit of the upstream since the merge-base
// records exactly the branch's tree, as left behind by a squash merge
func (q *queries) treeMergedInto(tip, upstreamTip Commit, mergeBase string) (bool, error) {
	if mergeBase == tip.Hash {
		return false, nil
	}
	commits, err := q.commitsBetween(upstreamTip.Hash, mergeBase)
	if err != nil {
		return false, err
	}
	for _, c := range commits {
		if c.TreeHash == tip.TreeHash {
			return true, nil
		}
	}
	return false, nil
}
