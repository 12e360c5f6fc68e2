package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/snackradar/snackradar/internal/model"
)

var _ model.NotificationPrompter = (*terminalPrompter)(nil)

// terminalPrompter stands in for the platform notification permission
// prompt: it asks once on stdin and reports the answer.
type terminalPrompter struct {
	in *bufio.Reader
}

func newTerminalPrompter() *terminalPrompter {
	return &terminalPrompter{in: bufio.NewReader(os.Stdin)}
}

func (p *terminalPrompter) RequestPermission(_ context.Context) (bool, error) {
	fmt.Print("Allow SnackRadar to send notifications? [y/N]: ")
	line, err := p.in.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read permission answer: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
