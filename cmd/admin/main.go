package main

import (
	"fmt"
	"log"
	"os"

	"civicfix/backend/internal/config"
	"civicfix/backend/internal/lifecycle"
	"civicfix/backend/internal/models"
	"civicfix/backend/internal/notify"
	"civicfix/backend/internal/sla"
	"civicfix/backend/internal/storage"
	"civicfix/backend/internal/trust"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI
	engine := lifecycle.NewEngine(storageSvc, trust.NewAdjuster(storageSvc), notify.LogNotifier{})

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "show":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin show <record_id>")
			os.Exit(1)
		}
		if err := showComplaint(storageSvc, os.Args[2]); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "timeline":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin timeline <tracking_code>")
			os.Exit(1)
		}
		if err := showTimeline(storageSvc, os.Args[2]); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "transition":
		if len(os.Args) < 4 {
			fmt.Println("Usage: admin transition <record_id> <target_status> [remark] [evidence_url]")
			os.Exit(1)
		}
		remark, evidenceURL := "manual transition by operator", ""
		if len(os.Args) > 4 {
			remark = os.Args[4]
		}
		if len(os.Args) > 5 {
			evidenceURL = os.Args[5]
		}
		if err := engine.Transition(os.Args[2], os.Args[3], "admin-cli", remark, evidenceURL); err != nil {
			log.Fatalf("Error applying transition: %v", err)
		}
		fmt.Printf("Complaint %s moved to %s.\n", os.Args[2], os.Args[3])
	case "breaches":
		if err := listBreaches(storageSvc); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "trust":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin trust <reporter_id>")
			os.Exit(1)
		}
		profile, err := storageSvc.GetReporterProfile(os.Args[2])
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		fmt.Printf("%s: trust score %d\n", profile.ReporterID, profile.TrustScore)
	default:
		usage()
	}
}

func usage() {
	fmt.Println("Usage: admin <show|timeline|transition|breaches|trust> [args]")
	os.Exit(1)
}

func showComplaint(s *storage.Service, id string) error {
	c, err := s.GetComplaintByID(id)
	if err != nil {
		return err
	}
	res := sla.Evaluate(c.CreatedAt, c.Category, c.Status)
	fmt.Printf("%s [%s] %s\n", c.TrackingCode, c.Status, c.Category)
	fmt.Printf("  department: %s\n  reporter:   %s\n", c.Department, c.ReporterID)
	fmt.Printf("  sla: %s (remaining %.1fh, overdue %.1fh of %dh)\n",
		res.Status, res.HoursRemaining, res.HoursOverdue, res.TotalSLAHours)
	fmt.Printf("  description: %s\n", c.Description)
	return nil
}

func showTimeline(s *storage.Service, code string) error {
	entries, err := s.ListAuditTrail(code)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%s  %s -> %s  by %s  %q\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.FromStatus, e.ToStatus, e.ActorID, e.Remark)
	}
	return nil
}

func listBreaches(s *storage.Service) error {
	complaints, err := s.ListComplaints("", "")
	if err != nil {
		return err
	}
	breached := 0
	for _, c := range complaints {
		if c.Status == models.StatusResolved {
			continue
		}
		res := sla.Evaluate(c.CreatedAt, c.Category, c.Status)
		if res.Status == sla.StatusBreached {
			breached++
			fmt.Printf("%s [%s] %s  overdue %.1fh (%s)\n",
				c.TrackingCode, c.Status, c.Category, res.HoursOverdue, c.Department)
		}
	}
	fmt.Printf("%d breached complaints.\n", breached)
	return nil
}
