package main

import "fmt"

// ---------------------------------------------------------------------------
// Screen state machine
// ---------------------------------------------------------------------------
//
// The screen moves through four phases. EDITING renders the same view as
// PREVIEW plus the finished caption; keeping it a distinct state means "save"
// is only legal once a caption exists, instead of being masked by rendering.

type screenState int

const (
	stateGate screenState = iota
	stateCamera
	statePreview
	stateEditing
)

func (s screenState) String() string {
	switch s {
	case stateGate:
		return "gate"
	case stateCamera:
		return "camera"
	case statePreview:
		return "preview"
	case stateEditing:
		return "editing"
	}
	return fmt.Sprintf("screenState(%d)", int(s))
}

type screenEvent int

const (
	eventPermissionsGranted screenEvent = iota
	eventCaptured
	eventImported
	eventCaptioned
	eventNewPhoto
	eventSaved
)

func (e screenEvent) String() string {
	switch e {
	case eventPermissionsGranted:
		return "permissions-granted"
	case eventCaptured:
		return "captured"
	case eventImported:
		return "imported"
	case eventCaptioned:
		return "captioned"
	case eventNewPhoto:
		return "new-photo"
	case eventSaved:
		return "saved"
	}
	return fmt.Sprintf("screenEvent(%d)", int(e))
}

// screenTransitions is the authoritative transition table. A caption failure
// is not an event: the screen simply stays in PREVIEW with an error banner.
var screenTransitions = map[screenState]map[screenEvent]screenState{
	stateGate: {
		eventPermissionsGranted: stateCamera,
	},
	stateCamera: {
		eventCaptured: statePreview,
		eventImported: statePreview,
	},
	statePreview: {
		eventCaptioned: stateEditing,
		eventNewPhoto:  stateCamera,
	},
	stateEditing: {
		eventNewPhoto: stateCamera,
		eventSaved:    stateCamera,
	},
}

// transition returns the next state, or an error when the event is not legal
// from the current state.
func transition(s screenState, e screenEvent) (screenState, error) {
	next, ok := screenTransitions[s][e]
	if !ok {
		return s, fmt.Errorf("invalid transition: %s from %s", e, s)
	}
	return next, nil
}
