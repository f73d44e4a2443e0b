package core

// Obstacles is the closed obstacle flag of a marked target.
type Obstacles string

const (
	ObstaclesNone    Obstacles = "none"
	ObstaclesPresent Obstacles = "present"
)

// TrackStatus is the closed detection status of a marked target.
type TrackStatus string

const (
	StatusDetect TrackStatus = "detect"
	StatusTrack  TrackStatus = "track"
	StatusLost   TrackStatus = "lost"
)

var obstaclesLabels = map[Obstacles]string{
	ObstaclesNone:    "no obstacles",
	ObstaclesPresent: "obstacles present",
}

var statusLabels = map[TrackStatus]string{
	StatusDetect: "detected",
	StatusTrack:  "tracking",
	StatusLost:   "lost",
}

// Label returns the display text for the obstacle flag. Unknown values
// fall back to the raw value so a stale record still renders.
func (o Obstacles) Label() string {
	if l, ok := obstaclesLabels[o]; ok {
		return l
	}
	return string(o)
}

// Label returns the display text for the track status, falling back to
// the raw value for unknown entries.
func (s TrackStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// TargetAttributes are the free-form operator-entered attributes of a
// marked target. ID and Height stay strings: they are transcription
// fields, not numbers the engine computes with.
type TargetAttributes struct {
	ID        string      `json:"id"`
	Height    string      `json:"height"`
	Obstacles Obstacles   `json:"obstacles"`
	Status    TrackStatus `json:"status"`
}
