// SPDX-License-Identifier: EPL-2.0

package decode

import "errors"

var (
	// ErrUnsupportedFormat means no decoder handled the file and no usable
	// conversion fallback succeeded.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrConversionFailed wraps an ffmpeg transcode failure.
	ErrConversionFailed = errors.New("external conversion failed")

	ErrInvalidFile = errors.New("invalid or corrupt audio file")
)
