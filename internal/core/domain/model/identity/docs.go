// Package identity models the actors of the system: buyers, sellers and admins.
//
// An Identity is created once at registration and never deleted. Its role is
// fixed for life and gates which lifecycle operations the actor may invoke.
package identity
