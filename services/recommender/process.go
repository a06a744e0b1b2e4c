package recommendersvc

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/recommend"
)

// execCommand is swapped in tests.
var execCommand = exec.CommandContext

// ProcessScorer runs the scoring script once per request: metrics as JSON on stdin,
// one JSON result on stdout.
type ProcessScorer struct {
	command string
	args    []string
	dir     string
	timeout time.Duration
	logger  core.Logger
}

var _ recommend.Scorer = (*ProcessScorer)(nil)

func NewProcessScorer(conf *core.Config, logger core.Logger) *ProcessScorer {
	rc := conf.Recommender
	return &ProcessScorer{
		command: rc.Command,
		args:    rc.Args,
		dir:     rc.Dir,
		timeout: rc.Timeout,
		logger:  logger,
	}
}

func (ps *ProcessScorer) Score(ctx context.Context, m recommend.Metrics) (recommend.Result, error) {
	input, err := json.Marshal(m)
	if err != nil {
		return recommend.Result{}, errors.Wrap(err, "encoding metrics")
	}
	if ps.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ps.timeout)
		defer cancel()
	}

	cmd := execCommand(ctx, ps.command, ps.args...)
	cmd.Dir = ps.dir
	cmd.Stdin = bytes.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if stderr.Len() > 0 {
		ps.logger.Warn("scorer stderr: " + strings.TrimSpace(stderr.String()))
	}
	if ctx.Err() != nil {
		return recommend.Result{}, errors.Wrap(recommend.ErrUpstreamFailure, "scorer timed out")
	}

	// a failing script may still have printed its result
	res, err := parseResult(stdout.Bytes())
	if err != nil {
		if runErr != nil {
			err = runErr
		}
		ps.logger.Error("scorer output: "+err.Error(), err, map[string]interface{}{"stdout": stdout.String()})
		return recommend.Result{}, errors.Wrap(recommend.ErrUpstreamFailure, "Failed to generate recommendations")
	}
	return res, nil
}

// parseResult decodes the last JSON object printed by the script.
func parseResult(out []byte) (recommend.Result, error) {
	out = bytes.TrimSpace(out)
	if i := bytes.LastIndex(out, []byte("\n{")); i >= 0 {
		out = out[i+1:]
	}
	var res recommend.Result
	if err := json.Unmarshal(out, &res); err != nil {
		return recommend.Result{}, errors.Wrap(err, "decoding scorer output")
	}
	res.Raw = append(json.RawMessage(nil), out...)
	return res, nil
}
