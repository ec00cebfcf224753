/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package hotseat runs Hot Seat game rooms.
//
// One player (the hot seat) answers a personal question truthfully while the
// others write bluffs; everyone else then votes for the answer they believe
// is real. The Registry owns every room, each room owns its own lock, and
// every phase change goes through one evaluation path that both player
// actions and the periodic tick call.
package hotseat
