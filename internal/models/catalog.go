package models

// Fixed task catalogs. Catalog checklists are pre-seeded with one entry per
// task name and keep their rows permanently, unlike free-form checklists.

// ServiceACatalog lists the standard Service A (minor service) tasks.
var ServiceACatalog = []string{
	"Engine oil and filter",
	"Check coolant level",
	"Check brake fluid level",
	"Check power steering fluid",
	"Check battery and terminals",
	"Check lights and indicators",
	"Check wiper blades and washers",
	"Grease chassis points",
	"Check tyre pressures",
	"Road test",
}

// ServiceBCatalog lists the Service B (major service) tasks, a superset of
// the minor service.
var ServiceBCatalog = []string{
	"Engine oil and filter",
	"Fuel filter",
	"Air filter",
	"Check coolant level",
	"Check brake fluid level",
	"Check power steering fluid",
	"Check transmission fluid",
	"Check differential oil",
	"Check battery and terminals",
	"Check belts and hoses",
	"Check lights and indicators",
	"Check wiper blades and washers",
	"Check brake pads and rotors",
	"Grease chassis points",
	"Check tyre pressures and rotation",
	"Road test",
}

// Trailer inspection catalogs, one per TrailerSection subsection.
var (
	TrailerElectricalCatalog = []string{
		"Tail lights",
		"Brake lights",
		"Indicators",
		"Clearance lights",
		"Wiring and plugs",
	}
	TrailerTiresWheelsCatalog = []string{
		"Tyre condition and tread",
		"Tyre pressures",
		"Wheel nuts and studs",
		"Rims and hubs",
		"Wheel bearings",
	}
	TrailerBrakeSystemCatalog = []string{
		"Brake linings",
		"Brake drums",
		"Brake adjustment",
		"Air lines and fittings",
		"Park brake operation",
	}
	TrailerSuspensionCatalog = []string{
		"Springs and hangers",
		"U-bolts",
		"Airbags",
		"Shock absorbers",
		"Axle alignment",
	}
	TrailerBodyChassisCatalog = []string{
		"Chassis rails and crossmembers",
		"Kingpin and skid plate",
		"Landing legs",
		"Body and doors",
		"Mudflaps and guards",
	}
)

// SeedEntries builds one blank checklist entry per catalog task name.
func SeedEntries(catalog []string) []ChecklistEntry {
	entries := make([]ChecklistEntry, 0, len(catalog))
	for _, name := range catalog {
		entries = append(entries, ChecklistEntry{TaskName: name})
	}
	return entries
}

// NewTrailerSection builds a trailer checklist with every subsection seeded
// from its catalog.
func NewTrailerSection() TrailerSection {
	return TrailerSection{
		Electrical:  SeedEntries(TrailerElectricalCatalog),
		TiresWheels: SeedEntries(TrailerTiresWheelsCatalog),
		BrakeSystem: SeedEntries(TrailerBrakeSystemCatalog),
		Suspension:  SeedEntries(TrailerSuspensionCatalog),
		BodyChassis: SeedEntries(TrailerBodyChassisCatalog),
	}
}
