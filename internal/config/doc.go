// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config loads and merges the vm-console configuration from
// environment variables, command-line flags, and an optional JSON file.
//
// The three sources are merged by a builder (non-zero values win, later
// sources fill gaps) into a single [StructuredConfig], from which the two
// binaries obtain their trimmed views: [GetClientConfig] for the terminal
// console and [GetServerConfig] for the inventory server.
package config
