// Package drive reads audio CD tables of contents from physical drives.
//
// On Linux the TOC comes from the CDROM ioctl interface, the media catalog
// number from CDROM_GET_MCN, and per-track ISRCs from a READ SUB-CHANNEL
// command issued over SG_IO. Other platforms report no capabilities. A
// per-device lock file serializes competing readers on the same drive.
package drive
