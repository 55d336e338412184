// Package cpufreq provides legal-level sources backed by the Linux cpufreq
// sysfs interface.
//
// The frequency table of a policy is read from
//
//	<root>/devices/system/cpu/cpu<N>/cpufreq/scaling_available_frequencies
//
// and, when that file is missing or empty (some drivers do not publish it),
// from the first column of
//
//	<root>/devices/system/cpu/cpu<N>/cpufreq/stats/time_in_state
//
// Values are in kHz. Tables are read on every call and never cached.
package cpufreq
