package main

import (
	"context"
	"time"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	ctx := context.Background()
	stf, err := cli.staffRepo.GetStaffByUsernameOrEmail(ctx, uname)
	if err != nil {
		return err
	}
	if err := stf.SetPassword(pwd); err != nil {
		return err
	}
	stf.UpdatedAt = time.Now().UTC()
	if _, err := cli.staffRepo.UpdateStaff(ctx, stf, nil); err != nil {
		return err
	}
	return nil
}
