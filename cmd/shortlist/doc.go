// Command shortlist is the CLI for the shortlistd task daemon. Task commands
// talk to the HTTP API with a cached session token; daemon control commands
// use the Unix control socket so they work without logging in.
package main
