package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/iudanet/treekeeper/internal/models"
	"github.com/iudanet/treekeeper/internal/validation"
)

func (c *Cli) runEdit(ctx context.Context, id string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("nothing to change. Usage: treekeeper edit <id> field=value...")
	}

	assignments, err := parseAssignments(args)
	if err != nil {
		return err
	}

	updates := make(models.FieldUpdates, len(assignments))
	for field, raw := range assignments {
		value, err := validation.ParseFieldValue(field, raw)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", field, err)
		}
		updates[field] = value
	}

	result, err := c.repo.SaveEdit(ctx, id, updates)
	if err != nil {
		return fmt.Errorf("failed to save edit: %w", err)
	}

	fields := make([]string, 0, len(updates))
	for field := range updates {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	if result.Offline {
		c.io.Printf("✓ Saved locally, will sync (%s)\n", result.Reason)
	} else {
		c.io.Println("✓ Saved")
	}
	c.io.Printf("Updated fields: %v\n", fields)
	return nil
}
