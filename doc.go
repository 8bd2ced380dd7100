/*
Package movstats computes moving-window statistics describing how a
response variable changes over a continuous independent variable,
separately within strata.  The response may be continuous (moving mean,
median, and quartiles), binary (moving proportions), or a censored
time/event pair (moving cumulative incidence via Kaplan-Meier).

Windows are formed either from a fixed number of sample-nearest
neighbors around each evaluation point, or from all observations
within a fixed distance of it.  The windowed series can be smoothed,
and model-based estimates (loess, spline least squares, spline
logistic, spline ordinal, spline quantile regression, and proportional
hazards incidence) can be overlaid at the same evaluation points.

The result is an in-memory table, wide or melted to long form, with
per-stratum window diagnostics attached.
*/
package movstats
