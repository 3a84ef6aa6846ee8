// Package flow drives the record, transcribe, generate and post sequence of
// the VoicePost client. The current stage is a tagged union: each variant
// carries only the data that is valid while the flow sits in that stage.
package flow

import "github.com/alkime/voicepost/internal/content"

// Stage names a step of the flow.
type Stage string

const (
	StageRecord     Stage = "record"
	StageTranscribe Stage = "transcribe"
	StageGenerate   Stage = "generate"
	StagePost       Stage = "post"
)

// State is one of Recording, Transcribing, Generating or Posting.
type State interface {
	Stage() Stage
	isState()
}

// Recording is the initial stage. Capture is set once the microphone has
// been released with some audio in it.
type Recording struct {
	Active  bool
	Capture *content.Audio
}

// Transcribing holds the clip being (or about to be) transcribed.
type Transcribing struct {
	Capture content.Audio
}

// Generating holds the transcript awaiting drafts.
type Generating struct {
	Transcript string
}

// Posting holds the finished drafts.
type Posting struct {
	Transcript string
	Drafts     content.DraftSet
}

func (Recording) Stage() Stage    { return StageRecord }
func (Transcribing) Stage() Stage { return StageTranscribe }
func (Generating) Stage() Stage   { return StageGenerate }
func (Posting) Stage() Stage      { return StagePost }

func (Recording) isState()    {}
func (Transcribing) isState() {}
func (Generating) isState()   {}
func (Posting) isState()      {}

// Snapshot is a consistent copy of the controller's state.
type Snapshot struct {
	State  State
	Busy   bool
	Copied map[content.Platform]bool
}

// Stage is shorthand for s.State.Stage().
func (s Snapshot) Stage() Stage {
	return s.State.Stage()
}

// Transcript returns the transcript held by the current stage, if any.
func (s Snapshot) Transcript() string {
	switch st := s.State.(type) {
	case Generating:
		return st.Transcript
	case Posting:
		return st.Transcript
	default:
		return ""
	}
}

// Drafts returns the drafts held by the current stage, if any.
func (s Snapshot) Drafts() content.DraftSet {
	if st, ok := s.State.(Posting); ok {
		return st.Drafts
	}

	return nil
}

// Recording reports whether the microphone is currently held.
func (s Snapshot) Recording() bool {
	st, ok := s.State.(Recording)
	return ok && st.Active
}

// HasCapture reports whether a finished recording is waiting to be transcribed.
func (s Snapshot) HasCapture() bool {
	switch st := s.State.(type) {
	case Recording:
		return st.Capture != nil
	case Transcribing:
		return true
	default:
		return false
	}
}
