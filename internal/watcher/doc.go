// Package watcher reacts to disc insertion events from the udev netlink
// socket, so discs are identified the moment the drive reports media.
package watcher
