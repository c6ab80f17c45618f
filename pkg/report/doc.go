/*
Package report renders monitor results for operators.

Plain-text renderers write to stdout (tables via text/tabwriter); every
command also offers JSON output through the same package so scripted
consumers get stable field names from pkg/types.
*/
package report
