package appstate

import (
	"errors"
	"fmt"
)

// View is the content view a session is showing
type View string

const (
	ViewSignedOut     View = "signed_out"
	ViewVerifyEmail   View = "verify_email"
	ViewHome          View = "home"
	ViewSubmitIdea    View = "submit_idea"
	ViewIdeaDetail    View = "idea_detail"
	ViewEvaluate      View = "evaluate"
	ViewRanking       View = "ranking"
	ViewNotifications View = "notifications"
	ViewProfile       View = "profile"
	ViewAdmin         View = "admin"
)

// Views lists every view
var Views = []View{
	ViewSignedOut, ViewVerifyEmail, ViewHome, ViewSubmitIdea, ViewIdeaDetail,
	ViewEvaluate, ViewRanking, ViewNotifications, ViewProfile, ViewAdmin,
}

// IsValid checks if the view is known
func (v View) IsValid() bool {
	for _, known := range Views {
		if v == known {
			return true
		}
	}
	return false
}

// ErrInvalidTransition is matched by every TransitionError via errors.Is
var ErrInvalidTransition = errors.New("invalid view transition")

// TransitionError describes a refused transition
type TransitionError struct {
	From   View
	To     View
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid view transition %s -> %s: %s", e.From, e.To, e.Reason)
}

// Is matches ErrInvalidTransition
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// Transition decides the view reached when user asks to move from one view
// to another. A nil user is signed out. Unverified users are held on
// ViewVerifyEmail and only admins reach ViewAdmin.
func Transition(from, to View, user *User) (View, error) {
	if !to.IsValid() {
		return from, &TransitionError{From: from, To: to, Reason: "unknown view"}
	}
	switch {
	case user == nil:
		if to != ViewSignedOut {
			return from, &TransitionError{From: from, To: to, Reason: "sign in required"}
		}
	case !user.EmailVerified:
		if to != ViewVerifyEmail && to != ViewSignedOut {
			return from, &TransitionError{From: from, To: to, Reason: "email not verified"}
		}
	default:
		if to == ViewVerifyEmail || to == ViewSignedOut {
			return from, &TransitionError{From: from, To: to, Reason: "already signed in"}
		}
		if to == ViewAdmin && !user.IsAdmin {
			return from, &TransitionError{From: from, To: to, Reason: "admin only"}
		}
	}
	return to, nil
}

// landing returns the view a user lands on after an auth change
func landing(user *User) View {
	switch {
	case user == nil:
		return ViewSignedOut
	case !user.EmailVerified:
		return ViewVerifyEmail
	default:
		return ViewHome
	}
}
