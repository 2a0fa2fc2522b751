package mcpserver

// MeasurementContract describes the point Vigil writes to InfluxDB each
// reporting tick, for LLM consumers reading the series.
const MeasurementContract = `# Vigil Measurement Contract

Vigil writes exactly one point per reporting tick to the configured InfluxDB
v2 bucket.

## Point shape

- **Measurement**: ` + "`kernel_status`" + ` (configurable via ` + "`influx.measurement`" + `).
- **Tag** ` + "`machine`" + `: hostname of the machine running Vigil (configurable
  via ` + "`influx.machine`" + `).
- **Field** ` + "`presence`" + ` (integer): 1 while the last observed notebook
  activity is younger than the active window, 0 otherwise. Before the first
  observation the point carries ` + "`presence=0`" + ` and nothing else.
- **Field** ` + "`notebook`" + ` (string): path of the most recently active
  notebook. Omitted before the first observation.
- **Field** ` + "`last_seen_ms`" + ` (integer): epoch milliseconds of the last
  observation. Omitted before the first observation.
- **Point time**: the tick time, not the observation time.

## Reading the series

- A gap in the series means the reporter (or the whole process) is down;
  ` + "`presence=0`" + ` means the reporter is healthy but no notebook is active.
- ` + "`presence`" + ` decays to 0 on its own once activity stops; ` + "`notebook`" + `
  keeps naming the last active notebook.
`
