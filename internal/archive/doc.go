// Package archive indexes a local media archive (one folder per album) and
// answers membership questions so the personalized pipeline never recommends
// works already owned.
package archive
