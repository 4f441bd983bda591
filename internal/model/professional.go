package model

import "time"

// DefaultAvatar is the sentinel filename meaning "no custom photo uploaded".
// Profile records never carry an empty avatar filename; absent values
// normalize to this sentinel on read.
const DefaultAvatar = "default_avatar.jpg"

type Professional struct {
	ID               string
	Name             string
	Gender           string
	SessionPrice     float64
	ShortDescription string
	Tags             []string
	AvatarFilename   string
	Email            string
	RegisteredAt     time.Time
}

// FilterCriteria narrows the professional listing. Zero values mean
// "no filter" for each dimension.
type FilterCriteria struct {
	Gender string
	Focus  string
	Line   string
}

func (f FilterCriteria) Empty() bool {
	return f.Gender == "" && f.Focus == "" && f.Line == ""
}
