package repoargs

import "github.com/fsdevblog/smsbroker/internal/domain"

type ReviewDeposit struct {
	DepositID  int64
	Status     domain.DepositStatusType
	ReviewedBy int64
	Note       string
}
