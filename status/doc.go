// Package status tracks which bootstrap phases have completed and whether
// bootstrap has failed.
//
// Each phase is a bit with a one-letter code used in the status token that is
// logged on a fatal error, for example "IG*" when the internal messages and
// the global configuration are loaded but the main configurations are not.
package status
