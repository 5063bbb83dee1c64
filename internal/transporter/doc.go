// Package transporter is the public face of the module: a client with one
// typed method per iTMSTransporter operation.
//
// A Transporter carries defaults (typically credentials and a provider
// short name from configuration) that are merged under the options of every
// call. Defaults an operation does not accept are skipped, so the same
// defaults serve every operation; options passed to a call are validated
// strictly.
//
// Example:
//
//	itms := transporter.New(transporter.Options{
//		Defaults: option.Values{"username": "user", "password": "secret"},
//	})
//	err := itms.Upload(ctx, "/path/to/title.itmsp", option.Values{"transport": "Aspera"})
package transporter
