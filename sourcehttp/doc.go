// Package sourcehttp loads configuration documents over HTTP(S).
//
// Requests are retried on connection errors and 5xx responses. The document
// format comes from Options.Format, then the Content-Type header, then the
// URL path extension, and finally defaults to YAML.
//
// Example:
//
//	source := sourcehttp.New("https://config.example.com/defaults.yaml", sourcehttp.Options{})
//	builder.Default(source)
package sourcehttp
