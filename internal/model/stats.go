package model

// StatsTotals holds ministry-wide counters over every DA row.
type StatsTotals struct {
	TotalDAs     int64   `json:"totalDAs"`
	TotalData    int64   `json:"totalData"`
	TotalReps    int64   `json:"totalReps"`
	ActiveDAs    int64   `json:"activeDAs"`
	InactiveDAs  int64   `json:"inactiveDAs"`
	PendingDAs   int64   `json:"pendingDAs"`
	AvgDataPerDA float64 `json:"avgDataPerDA"`
}

type RegionStat struct {
	Region    string `json:"region"`
	DACount   int64  `json:"da_count"`
	TotalData int64  `json:"total_data"`
}

type ZoneStat struct {
	Zone      string `json:"zone"`
	DACount   int64  `json:"da_count"`
	TotalData int64  `json:"total_data"`
}

type StatusStat struct {
	Status    string `json:"status"`
	Count     int64  `json:"count"`
	TotalData int64  `json:"total_data"`
}

// TopDA is the public projection of a high-volume DA.
type TopDA struct {
	Name                 string `json:"name"`
	Region               string `json:"region"`
	Zone                 string `json:"zone"`
	Woreda               string `json:"woreda"`
	TotalDataCollected   int64  `json:"total_data_collected"`
	Status               string `json:"status"`
	ReportingManagerName string `json:"reporting_manager_name"`
}

// PublicStats is the payload of the unauthenticated statistics endpoint.
type PublicStats struct {
	Stats       StatsTotals  `json:"stats"`
	RegionData  []RegionStat `json:"regionData"`
	ZoneData    []ZoneStat   `json:"zoneData"`
	StatusTrend []StatusStat `json:"statusTrend"`
	TopDAs      []TopDA      `json:"topDAs"`
}

// KPIs compares the caller's scope with the whole table.
type KPIs struct {
	RepTotalDAs     int64 `json:"repTotalDAs"`
	RepTotalData    int64 `json:"repTotalData"`
	GlobalTotalDAs  int64 `json:"globalTotalDAs"`
	GlobalTotalData int64 `json:"globalTotalData"`
}
