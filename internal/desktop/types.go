package desktop

import (
	"errors"
	"time"
)

// AppID names a windowed app.
type AppID string

const (
	AppTerminal AppID = "terminal"
	AppNotes    AppID = "notes"
	AppGitHub   AppID = "github"
	AppResume   AppID = "resume"
	AppSpotify  AppID = "spotify"
)

// Apps lists every app in dock order.
var Apps = []AppID{AppTerminal, AppNotes, AppGitHub, AppResume, AppSpotify}

// missionControlOrder is the order open windows are tiled in Mission Control.
var missionControlOrder = []AppID{AppGitHub, AppNotes, AppTerminal, AppResume, AppSpotify}

var (
	ErrUnknownApp = errors.New("unknown app")
	ErrNotOpen    = errors.New("window is not open")
)

// ParseApp validates an app id.
func ParseApp(s string) (AppID, error) {
	for _, a := range Apps {
		if string(a) == s {
			return a, nil
		}
	}
	return "", ErrUnknownApp
}

// appSpec is where and how large a window first opens. Positions are
// fractions of the viewport.
type appSpec struct {
	title  string
	fracX  float64
	fracY  float64
	width  float64
	height float64
}

var specs = map[AppID]appSpec{
	AppTerminal: {title: "Terminal", fracX: 0.1, fracY: 0.1, width: 700, height: 500},
	AppNotes:    {title: "Notes", fracX: 0.3, fracY: 0.2, width: 700, height: 600},
	AppGitHub:   {title: "GitHub Projects", fracX: 0.2, fracY: 0.2, width: 800, height: 600},
	AppResume:   {title: "Resume", fracX: 0.4, fracY: 0.2, width: 800, height: 600},
	AppSpotify:  {title: "Spotify", fracX: 0.6, fracY: 0.1, width: DefaultWidth, height: DefaultHeight},
}

// Window is one app's window.
type Window struct {
	App      AppID  `json:"app"`
	Title    string `json:"title"`
	Position Point  `json:"position"`
	Size     Size   `json:"size"`
	Z        int    `json:"z"`
	Open     bool   `json:"open"`
}

// Layout is one visitor's desktop.
type Layout struct {
	SessionID string    `json:"sessionId"`
	Windows   []Window  `json:"windows"`
	Focused   AppID     `json:"focused,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
