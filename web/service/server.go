package service

import (
	"runtime"
	"time"

	"github.com/AlvanCjh/paddock-panel/logger"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// Status is the system snapshot shown on the admin dashboard.
type Status struct {
	T        time.Time `json:"-"`
	Cpu      float64   `json:"cpu"`
	CpuCores int       `json:"cpuCores"`
	Mem      struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"mem"`
	Uptime   uint64    `json:"uptime"`
	Loads    []float64 `json:"loads"`
	AppStats struct {
		Threads int    `json:"threads"`
		Mem     uint64 `json:"mem"`
	} `json:"appStats"`
}

// ServerService collects host statistics for the dashboard status tile.
type ServerService struct{}

// GetStatus collects the current snapshot. Collection failures degrade to
// zero values; the dashboard must render even on exotic hosts.
func (s *ServerService) GetStatus() *Status {
	now := time.Now()
	status := &Status{T: now}

	percents, err := cpu.Percent(0, false)
	if err != nil {
		logger.Warning("get cpu percent failed:", err)
	} else if len(percents) > 0 {
		status.Cpu = percents[0]
	}

	status.CpuCores, err = cpu.Counts(false)
	if err != nil {
		logger.Warning("get cpu counts failed:", err)
	}

	upTime, err := host.Uptime()
	if err != nil {
		logger.Warning("get uptime failed:", err)
	} else {
		status.Uptime = upTime
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		logger.Warning("get virtual memory failed:", err)
	} else {
		status.Mem.Current = memInfo.Used
		status.Mem.Total = memInfo.Total
	}

	avgState, err := load.Avg()
	if err != nil {
		logger.Warning("get load avg failed:", err)
	} else {
		status.Loads = []float64{avgState.Load1, avgState.Load5, avgState.Load15}
	}

	var rtm runtime.MemStats
	runtime.ReadMemStats(&rtm)
	status.AppStats.Threads = runtime.NumGoroutine()
	status.AppStats.Mem = rtm.Sys

	return status
}
