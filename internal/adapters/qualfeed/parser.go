// Package qualfeed reads the technician qualification feed.
//
// The feed is a sequence of two-line records:
//
//	<anything> <first name> <last name>
//	<truck type>
//
// Only the last two whitespace-separated tokens of the first line are used.
package qualfeed

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"

	"waste-wrangler-service/internal/domain"
)

// Parse reads every record from r. Malformed records are skipped and
// reported together in the returned error; well-formed records are returned
// either way.
func Parse(r io.Reader) ([]domain.Qualification, error) {
	var (
		out     []domain.Qualification
		mErr    *multierror.Error
		pending *domain.Qualification
		lineNo  int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())

		if lineNo%2 == 1 {
			pending = nil
			fields := strings.Fields(line)
			if len(fields) < 2 {
				mErr = multierror.Append(mErr, fmt.Errorf("line %d: want first and last name, got %q", lineNo, line))
				continue
			}
			pending = &domain.Qualification{
				FirstName: fields[len(fields)-2],
				LastName:  fields[len(fields)-1],
			}
			continue
		}

		if pending == nil {
			continue
		}
		if line == "" {
			mErr = multierror.Append(mErr, fmt.Errorf("line %d: empty truck type for %s", lineNo, pending.FullName()))
			pending = nil
			continue
		}
		pending.TruckType = line
		out = append(out, *pending)
		pending = nil
	}
	if err := sc.Err(); err != nil {
		return out, fmt.Errorf("read qualification feed: %w", err)
	}
	if pending != nil {
		mErr = multierror.Append(mErr, fmt.Errorf("line %d: %s has no truck type", lineNo, pending.FullName()))
	}

	return out, mErr.ErrorOrNil()
}
