// Command playmate recommends games from a taste profile, runs the movie
// taste quiz and serves both over HTTP.
//
// Subcommands load configuration through internal/config (after reading an
// optional .env file) and build their services on demand, so commands that
// never touch the text-generation service do not need its key.
package main
