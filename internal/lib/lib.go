// Packages lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It contains the vCard rendering used by the export endpoint (vcf) and
// small shared helpers (utils).
package lib
