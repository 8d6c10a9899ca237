package navigation_test

import (
	"fmt"
	"time"

	"github.com/yildizm/wedsite/internal/gesture"
	"github.com/yildizm/wedsite/internal/navigation"
	"github.com/yildizm/wedsite/internal/schedule"
)

func ExampleController() {
	clock := schedule.NewManual(time.Time{})
	nav := navigation.New(clock)

	nav.Navigate(navigation.ViewRSVP)
	fmt.Println(nav.State())

	// ignored: a transition is already running
	nav.Navigate(navigation.ViewStory)

	clock.Advance(navigation.DefaultDuration)
	fmt.Println(nav.State())

	nav.Swipe(gesture.SwipeRight)
	fmt.Println(nav.State())
	// Output:
	// exiting(landing->rsvp, right)
	// idle(rsvp)
	// exiting(rsvp->edit-rsvp, right)
}
