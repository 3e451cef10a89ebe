package calendar

// 2025-2026 school year.
var staticEntries = []Entry{
	{ID: "static-2025-09-30", Date: "2025-09-30", Kind: KindHoliday, Title: "National Day for Truth and Reconciliation", Description: "Schools closed."},
	{ID: "static-2025-10-08", Date: "2025-10-08", Kind: KindCollab, Title: "Collaboration Day", Description: "Late start: classes begin at 10:00 AM."},
	{ID: "static-2025-10-13", Date: "2025-10-13", Kind: KindHoliday, Title: "Thanksgiving Day", Description: "Schools closed."},
	{ID: "static-2025-10-24", Date: "2025-10-24", Kind: KindProD, Title: "Provincial Pro-D Day", Description: "No classes for students."},
	{ID: "static-2025-11-11", Date: "2025-11-11", Kind: KindHoliday, Title: "Remembrance Day", Description: "Schools closed."},
	{ID: "static-2025-11-12", Date: "2025-11-12", Kind: KindCollab, Title: "Collaboration Day", Description: "Late start: classes begin at 10:00 AM."},
	{ID: "static-2025-11-21", Date: "2025-11-21", Kind: KindProD, Title: "District Pro-D Day", Description: "No classes for students."},
	{ID: "static-2025-12-10", Date: "2025-12-10", Kind: KindCollab, Title: "Collaboration Day", Description: "Late start: classes begin at 10:00 AM."},
	{ID: "static-2025-12-19", Date: "2025-12-19", Kind: KindHoliday, Title: "Last Day Before Winter Break", Description: "Winter break runs from December 22 to January 2."},
	{ID: "static-2025-12-22", Date: "2025-12-22", Kind: KindHoliday, Title: "Winter Break Begins", Description: "Schools closed until January 5."},
	{ID: "static-2026-01-05", Date: "2026-01-05", Kind: KindHoliday, Title: "Classes Resume", Description: "First day back after winter break."},
	{ID: "static-2026-01-14", Date: "2026-01-14", Kind: KindCollab, Title: "Collaboration Day", Description: "Late start: classes begin at 10:00 AM."},
	{ID: "static-2026-01-30", Date: "2026-01-30", Kind: KindProD, Title: "Semester Turnaround", Description: "No classes for students."},
	{ID: "static-2026-02-11", Date: "2026-02-11", Kind: KindCollab, Title: "Collaboration Day", Description: "Late start: classes begin at 10:00 AM."},
	{ID: "static-2026-02-13", Date: "2026-02-13", Kind: KindProD, Title: "District Pro-D Day", Description: "No classes for students."},
	{ID: "static-2026-02-16", Date: "2026-02-16", Kind: KindHoliday, Title: "Family Day", Description: "Schools closed."},
	{ID: "static-2026-03-11", Date: "2026-03-11", Kind: KindCollab, Title: "Collaboration Day", Description: "Late start: classes begin at 10:00 AM."},
	{ID: "static-2026-03-16", Date: "2026-03-16", Kind: KindHoliday, Title: "Spring Break Begins", Description: "Schools closed until March 30."},
	{ID: "static-2026-04-03", Date: "2026-04-03", Kind: KindHoliday, Title: "Good Friday", Description: "Schools closed."},
	{ID: "static-2026-04-06", Date: "2026-04-06", Kind: KindHoliday, Title: "Easter Monday", Description: "Schools closed."},
	{ID: "static-2026-04-15", Date: "2026-04-15", Kind: KindCollab, Title: "Collaboration Day", Description: "Late start: classes begin at 10:00 AM."},
	{ID: "static-2026-04-24", Date: "2026-04-24", Kind: KindProD, Title: "District Pro-D Day", Description: "No classes for students."},
	{ID: "static-2026-05-13", Date: "2026-05-13", Kind: KindCollab, Title: "Collaboration Day", Description: "Late start: classes begin at 10:00 AM."},
	{ID: "static-2026-05-18", Date: "2026-05-18", Kind: KindHoliday, Title: "Victoria Day", Description: "Schools closed."},
	{ID: "static-2026-06-25", Date: "2026-06-25", Kind: KindHoliday, Title: "Last Day of Classes", Description: "Report cards go home."},
	{ID: "static-2026-06-26", Date: "2026-06-26", Kind: KindProD, Title: "School Closing Administrative Day", Description: "No classes for students."},
}

// StaticEntries returns a copy of the fixed school calendar, icons filled from their kind.
func StaticEntries() []Entry {
	entries := make([]Entry, 0, len(staticEntries))
	for _, e := range staticEntries {
		if e.Icon == "" {
			e.Icon = e.Kind.Style().Icon
		}
		entries = append(entries, e)
	}
	return entries
}
