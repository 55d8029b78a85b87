// SPDX-License-Identifier: EPL-2.0

package drumbot

import "errors"

// ErrUnexpectedStatus is returned when the service answers with a non-2xx
// status.
var ErrUnexpectedStatus = errors.New("unexpected status")
