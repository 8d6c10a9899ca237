package navigation

import "github.com/yildizm/wedsite/internal/gesture"

// swipeTable binds each view's swipes to a target. The same gesture means
// different things on different views; unbound swipes do nothing.
var swipeTable = map[View]map[gesture.Swipe]View{
	ViewLanding: {
		gesture.SwipeLeft:  ViewStory,
		gesture.SwipeRight: ViewRSVP,
	},
	ViewRSVP: {
		gesture.SwipeLeft:  ViewLanding,
		gesture.SwipeRight: ViewEditRSVP,
	},
	ViewEditRSVP: {
		gesture.SwipeLeft: ViewRSVP,
	},
	ViewStory: {
		gesture.SwipeRight: ViewLanding,
	},
	ViewSaveTheDate: {
		gesture.SwipeLeft: ViewLanding,
	},
}

// SwipeTarget returns the view a swipe on v leads to.
func SwipeTarget(v View, s gesture.Swipe) (View, bool) {
	to, ok := swipeTable[v][s]
	return to, ok
}
