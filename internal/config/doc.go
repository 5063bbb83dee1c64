// Package config loads the itms-transporter configuration.
//
// Settings are resolved from, lowest precedence first:
//
//  1. Built-in defaults
//  2. A config file (JSONC, JSON or YAML)
//  3. Environment variables (ITMS_PATH, ITMS_USERNAME, ITMS_PASSWORD, ...),
//     including those loaded from a .env file in the working directory
//
// Command-line flags are layered on top by the CLI.
//
// The config file is the one given explicitly, else the first
// itms-transporter.{jsonc,json,yaml,yml} found in the user config directory,
// else in the working directory. Having no config file is not an error.
//
// Example (itms-transporter.yaml):
//
//	path: /usr/local/itms/bin/iTMSTransporter
//	print_stderr: true
//	timeout: 30m
//	defaults:
//	  username: user@example.com
//	  shortname: luser
//	  transport: Aspera
package config
