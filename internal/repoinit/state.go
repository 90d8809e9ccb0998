package repoinit

// Phase is a state of the run state machine:
//
//	start → validating → building → remote_creating → configuring → publishing → done
//
// Any fatal error after building has begun goes through rolling_back to
// failed; validation failures go straight to failed.
type Phase string

// Phases.
const (
	PhaseStart          Phase = "start"
	PhaseValidating     Phase = "validating"
	PhaseBuilding       Phase = "building"
	PhaseRemoteCreating Phase = "remote_creating"
	PhaseConfiguring    Phase = "configuring"
	PhasePublishing     Phase = "publishing"
	PhaseDone           Phase = "done"
	PhaseRollingBack    Phase = "rolling_back"
	PhaseFailed         Phase = "failed"
)

// mutating reports whether a failure in this phase needs rollback.
func (p Phase) mutating() bool {
	switch p {
	case PhaseBuilding, PhaseRemoteCreating, PhaseConfiguring, PhasePublishing:
		return true
	default:
		return false
	}
}

// State is owned by a single run and discarded when it ends.
// Only RemoteCreated gates remote deletion; only DirCreated gates local deletion.
type State struct {
	RunID         string `json:"run_id"`
	OriginalDir   string `json:"original_dir"`
	WorkspaceDir  string `json:"workspace_dir,omitempty"`
	DirCreated    bool   `json:"dir_created"`
	RemoteCreated bool   `json:"remote_created"`
	Owner         string `json:"owner,omitempty"`
	Pushed        bool   `json:"pushed"`
	Phase         Phase  `json:"phase"`
}

// FullName returns owner/name, or name alone while the owner is unknown.
func (s *State) FullName(name string) string {
	if s.Owner == "" {
		return name
	}
	return s.Owner + "/" + name
}
