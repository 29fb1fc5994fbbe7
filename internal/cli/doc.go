// Package cli implements the ctop command-line interface.
//
// Commands are package-level cobra.Command values registered on rootCmd
// from init functions. Each command loads the config, applies flag
// overrides, builds an engine (fleet table, fetcher and poller) and hands
// it to the dashboard, the plain printer or the snapshot writer.
//
// # Command Structure
//
//	ctop                 - Live dashboard (or --plain status lines)
//	ctop snapshot        - Poll a few times, print a table or JSON
//	ctop init            - Create ctop.yaml
//	ctop version         - Print build information
//	ctop completion      - Shell completion scripts
//
// # Output
//
// The dashboard only runs when stdout is a terminal. Piped output falls
// back to one line per tick, and logs go to stderr or log.file so they
// never mix with the dashboard.
package cli
