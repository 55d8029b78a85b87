// SPDX-License-Identifier: EPL-2.0

package engine

import "errors"

// ErrStopped is returned by Dispatch once the engine has shut down.
var ErrStopped = errors.New("engine stopped")
