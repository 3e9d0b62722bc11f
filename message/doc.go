// Package message provides the internal message catalog: a dotted-key lookup
// of human-readable strings used for log lines.
//
// Lookups never fail. A missing key yields "The key <key> is missing" and a
// key that holds a mapping or list yields "The text for key <key> is
// malformed".
//
//	catalog, err := message.LoadDefault()
//	logger.Debug(catalog.Log("configuration.load.attempt"))
package message
