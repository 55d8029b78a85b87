// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	// ErrNotWavFile indicates the input is not a RIFF/WAVE file.
	ErrNotWavFile = errors.New("not a WAV file")

	// ErrNoPCMData indicates the file has no data chunk.
	ErrNoPCMData = errors.New("WAV file has no data chunk")
)
