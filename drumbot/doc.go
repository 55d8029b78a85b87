// SPDX-License-Identifier: EPL-2.0

// Package drumbot is a client for the drumbot pattern service.
//
// The service lists pattern names at {base}/patterns and serves each
// pattern at {base}/patterns/{name}:
//
//	c := drumbot.New("")
//	all, err := c.FetchAll(ctx)
//
// Patterns decode straight into sequencer.Pattern.
package drumbot
