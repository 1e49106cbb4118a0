package engine

// SyncToParentStatus describes how a branch relates to its parent's current commit
type SyncToParentStatus int

const (
	// InSync indicates the parent's tip is the branch's fork point
	InSync SyncToParentStatus = iota
	// OutOfSync indicates the parent moved ahead of the fork point and a rebase is needed
	OutOfSync
	// MergedToParent indicates the branch's changes are already in the parent's history
	MergedToParent
	// InSyncButForkPointOff indicates the parent is contained in the branch, but the
	// fork point found in the reflog is not the parent's tip
	InSyncButForkPointOff
	// Diverged indicates the branch was forked from a commit no longer in the parent's history
	Diverged
	// NoRelation indicates the branch and its parent share no history
	NoRelation
)

func (s SyncToParentStatus) String() string {
	switch s {
	case InSync:
		return "InSync"
	case OutOfSync:
		return "OutOfSync"
	case MergedToParent:
		return "MergedToParent"
	case InSyncButForkPointOff:
		return "InSyncButForkPointOff"
	case Diverged:
		return "Diverged"
	case NoRelation:
		return "NoRelation"
	default:
		return "Unknown"
	}
}

// IsTerminal returns true for statuses where no rebase can be proposed
func (s SyncToParentStatus) IsTerminal() bool {
	return s == Diverged || s == NoRelation
}

// SyncToRemoteStatus describes how a branch relates to its remote-tracking branch
type SyncToRemoteStatus int

const (
	// NoRemotes indicates the repository has no remotes configured
	NoRemotes SyncToRemoteStatus = iota
	// Untracked indicates no remote-tracking branch corresponds to the branch
	Untracked
	// InSyncToRemote indicates the branch and its remote-tracking branch point to the same commit
	InSyncToRemote
	// AheadOfRemote indicates the branch has commits the remote lacks; a push is enough
	AheadOfRemote
	// BehindRemote indicates the remote has commits the branch lacks; a pull is enough
	BehindRemote
	// DivergedFromAndNewerThanRemote indicates both sides have own commits and the
	// local tip was committed last
	DivergedFromAndNewerThanRemote
	// DivergedFromAndOlderThanRemote indicates both sides have own commits and the
	// remote tip was committed last
	DivergedFromAndOlderThanRemote
)

func (s SyncToRemoteStatus) String() string {
	switch s {
	case NoRemotes:
		return "NoRemotes"
	case Untracked:
		return "Untracked"
	case InSyncToRemote:
		return "InSyncToRemote"
	case AheadOfRemote:
		return "AheadOfRemote"
	case BehindRemote:
		return "BehindRemote"
	case DivergedFromAndNewerThanRemote:
		return "DivergedFromAndNewerThanRemote"
	case DivergedFromAndOlderThanRemote:
		return "DivergedFromAndOlderThanRemote"
	default:
		return "Unknown"
	}
}
