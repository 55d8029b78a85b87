// SPDX-License-Identifier: EPL-2.0

package sequencer

import "errors"

// ErrInvalidPattern is returned for patterns that cannot be played.
var ErrInvalidPattern = errors.New("invalid pattern")
