package pipeline

// State is a position in the playlist creation state machine.
type State int

const (
	StateIdle State = iota
	StateAuthenticating
	StateFetchingProfile
	StateFetchingTopTracks
	StateCreatingPlaylist
	StateAddingTracks
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:              "idle",
	StateAuthenticating:    "authenticating",
	StateFetchingProfile:   "fetching_profile",
	StateFetchingTopTracks: "fetching_top_tracks",
	StateCreatingPlaylist:  "creating_playlist",
	StateAddingTracks:      "adding_tracks",
	StateDone:              "done",
	StateFailed:            "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Kind classifies why a run failed.
type Kind int

const (
	// KindSessionExpired means the provider rejected the credential; the
	// stored credential has been cleared.
	KindSessionExpired Kind = iota + 1
	// KindAuthentication means the profile could not be fetched.
	KindAuthentication
	// KindProvider means a non-OK response, with the provider's message when
	// one was readable.
	KindProvider
	// KindNoTopTracks means the user has no listening history for the range.
	KindNoTopTracks
	// KindTransport means the request never got a response.
	KindTransport
	// KindMissingCredential means the run was started without a credential.
	KindMissingCredential
)

var kindNames = map[Kind]string{
	KindSessionExpired:    "session_expired",
	KindAuthentication:    "authentication",
	KindProvider:          "provider",
	KindNoTopTracks:       "no_top_tracks",
	KindTransport:         "transport",
	KindMissingCredential: "missing_credential",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Failure is the first error of a run and the step it came from.
type Failure struct {
	Step    State
	Kind    Kind
	Message string
	// PlaylistID is set when a playlist had already been created before the
	// failing step. That playlist is not deleted.
	PlaylistID string
	Err        error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Message
	}
	return f.Message + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// RequiresLogin reports whether the user has to authenticate again.
func (f *Failure) RequiresLogin() bool {
	return f.Kind == KindSessionExpired || f.Kind == KindMissingCredential
}
