package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/MarkoPoloResearchLab/sitedash/internal/dashboard"
	"github.com/MarkoPoloResearchLab/sitedash/pkg/notice"
)

const (
	confirmPromptPattern  = "%s [y/N]: "
	noticeLinePattern     = "%s %s\n"
	loginHintLine         = "Run \"sitedash login\" to sign in.\n"
	dashboardHintLine     = "Run \"sitedash sites list\" to see your websites.\n"
	confirmAnswerYes      = "y"
	confirmAnswerYesLong  = "yes"
	labelNoticeInfo       = "[info]"
	labelNoticeSuccess    = "[ok]"
	labelNoticeError      = "[error]"
	labelNoticeUnknownFmt = "[%s]"
)

var noticeLabels = map[notice.Kind]string{
	notice.KindInfo:    labelNoticeInfo,
	notice.KindSuccess: labelNoticeSuccess,
	notice.KindError:   labelNoticeError,
}

// Notifier prints notices as labeled lines.
type Notifier struct {
	mutex  sync.Mutex
	output io.Writer
}

// NewNotifier returns a notifier writing to output.
func NewNotifier(output io.Writer) *Notifier {
	return &Notifier{output: output}
}

// Notify prints message.
func (notifier *Notifier) Notify(_ context.Context, message notice.Message) {
	label, known := noticeLabels[message.Kind]
	if !known {
		label = fmt.Sprintf(labelNoticeUnknownFmt, message.Kind)
	}
	notifier.mutex.Lock()
	defer notifier.mutex.Unlock()
	fmt.Fprintf(notifier.output, noticeLinePattern, label, message.Text)
}

// Confirmer asks a yes/no question on the terminal. AssumeYes answers every question with yes.
type Confirmer struct {
	input     *bufio.Reader
	output    io.Writer
	assumeYes bool
}

// NewConfirmer returns a confirmer reading answers from input.
func NewConfirmer(input io.Reader, output io.Writer, assumeYes bool) *Confirmer {
	return &Confirmer{input: bufio.NewReader(input), output: output, assumeYes: assumeYes}
}

// Confirm reports whether the user answered yes. Anything else, including end of input, is a no.
func (confirmer *Confirmer) Confirm(_ context.Context, question string) bool {
	if confirmer.assumeYes {
		return true
	}
	fmt.Fprintf(confirmer.output, confirmPromptPattern, question)
	answer, readErr := confirmer.input.ReadString('\n')
	if readErr != nil && answer == "" {
		return false
	}
	normalized := strings.ToLower(strings.TrimSpace(answer))
	return normalized == confirmAnswerYes || normalized == confirmAnswerYesLong
}

// Navigator prints where the user should go next. A terminal cannot be redirected, so the delay
// is not waited out.
type Navigator struct {
	mutex       sync.Mutex
	output      io.Writer
	destination dashboard.Destination
	delay       time.Duration
}

// NewNavigator returns a navigator writing hints to output.
func NewNavigator(output io.Writer) *Navigator {
	return &Navigator{output: output}
}

// Navigate records the destination and prints the matching command hint.
func (navigator *Navigator) Navigate(_ context.Context, destination dashboard.Destination, delay time.Duration) {
	navigator.mutex.Lock()
	defer navigator.mutex.Unlock()
	navigator.destination = destination
	navigator.delay = delay
	switch destination {
	case dashboard.DestinationLogin:
		fmt.Fprint(navigator.output, loginHintLine)
	case dashboard.DestinationDashboard:
		fmt.Fprint(navigator.output, dashboardHintLine)
	}
}

// Destination returns the last requested destination, if any.
func (navigator *Navigator) Destination() (dashboard.Destination, time.Duration) {
	navigator.mutex.Lock()
	defer navigator.mutex.Unlock()
	return navigator.destination, navigator.delay
}
