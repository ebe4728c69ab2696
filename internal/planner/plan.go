// File: internal/planner/plan.go
package planner

import (
	"regexp"
	"strings"
)

// hardwarePlanName marks the built-in machine audit plan, whose completion
// produces a summary with a manufacture-year estimate.
const hardwarePlanName = "hardware_audit"

// Step is one command of an in-progress plan.
type Step struct {
	Label      string
	Command    string
	Powershell bool
}

// Plan is the planner's multi-step execution state. Steps run in order;
// each step's result is appended to Outputs before the index advances.
type Plan struct {
	Name              string
	Steps             []Step
	Index             int
	Outputs           []string
	NeedsConfirmation bool
}

// Done reports whether every step has been dispatched and fed back.
func (p *Plan) Done() bool { return p.Index >= len(p.Steps) }

// Current returns the step at the cursor; call only when !Done().
func (p *Plan) Current() Step { return p.Steps[p.Index] }

// hardwareAuditSteps collects system, CPU, memory, disk, GPU, board and BIOS
// details over three PowerShell CIM queries.
func hardwareAuditSteps() []Step {
	return []Step{
		{
			Label:      "systeminfo+cpu+mem",
			Powershell: true,
			Command:    "(systeminfo | Out-String -Width 300); (Get-CimInstance Win32_Processor | Select-Object Name, Manufacturer, MaxClockSpeed, NumberOfCores, NumberOfLogicalProcessors | Out-String -Width 300); (Get-CimInstance Win32_PhysicalMemory | Select-Object Manufacturer, PartNumber, SerialNumber, Capacity, Speed | Out-String -Width 300)",
		},
		{
			Label:      "disks+gpu",
			Powershell: true,
			Command:    "(Get-CimInstance Win32_DiskDrive | Select-Object Model, Size, InterfaceType, MediaType, SerialNumber | Out-String -Width 300); (Get-CimInstance Win32_VideoController | Select-Object Name, AdapterRAM, DriverVersion, VideoProcessor | Out-String -Width 300)",
		},
		{
			Label:      "board+bios",
			Powershell: true,
			Command:    "(Get-CimInstance Win32_BaseBoard | Select-Object Manufacturer, Product, SerialNumber, Version | Out-String -Width 300); (Get-CimInstance Win32_BIOS | Select-Object Manufacturer, SMBIOSBIOSVersion, ReleaseDate | Out-String -Width 300)",
		},
	}
}

var (
	yearDigits   = regexp.MustCompile(`(\d{4})`)
	fullDateYear = regexp.MustCompile(`(\d{4})[/\-]\d{1,2}[/\-]\d{1,2}`)
	plainYear    = regexp.MustCompile(`\b(20\d{2}|19\d{2})\b`)
)

// estimateYear guesses the machine's manufacture year from collected command
// outputs. The BIOS ReleaseDate line wins; then any full date; then the first
// plausible standalone year. Returns "N/D" when nothing matches.
func estimateYear(outputs []string) string {
	text := strings.Join(outputs, "\n")
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(strings.ToLower(line), "releasedate") {
			if m := yearDigits.FindStringSubmatch(line); m != nil {
				return m[1]
			}
		}
	}
	if m := fullDateYear.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := plainYear.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return "N/D"
}

// summarizeHardware builds the terminal answer of the hardware audit plan.
func summarizeHardware(outputs []string, yearHint string) string {
	joined := "Sem saídas capturadas."
	if len(outputs) > 0 {
		joined = strings.Join(outputs, "\n\n")
	}
	return "Características detalhadas da máquina (coletadas offline):\n" +
		joined +
		"\n\nAno de fabricação (estimado): " + yearHint
}
