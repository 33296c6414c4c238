package service

import (
	"fmt"

	"github.com/fsdevblog/smsbroker/pkg/uow"
	"github.com/sirupsen/logrus"
)

type AppServices struct {
	Ledger      *LedgerService
	Activations *ActivationService
	Catalog     *CatalogService
	Purchases   *PurchaseService
}

func Factory(unitOfWork uow.UOW, client ProviderClient, notifier Notifier, l *logrus.Logger) (*AppServices, error) {
	ledger, ledgerErr := NewLedgerService(unitOfWork, notifier, l)
	if ledgerErr != nil {
		return nil, fmt.Errorf("service factory: %w", ledgerErr)
	}

	activations, activationsErr := NewActivationService(unitOfWork, client, notifier, l)
	if activationsErr != nil {
		return nil, fmt.Errorf("service factory: %w", activationsErr)
	}

	catalog, catalogErr := NewCatalogService(unitOfWork, client, l)
	if catalogErr != nil {
		return nil, fmt.Errorf("service factory: %w", catalogErr)
	}

	purchases, purchasesErr := NewPurchaseService(unitOfWork, client, notifier, l)
	if purchasesErr != nil {
		return nil, fmt.Errorf("service factory: %w", purchasesErr)
	}

	return &AppServices{
		Ledger:      ledger,
		Activations: activations,
		Catalog:     catalog,
		Purchases:   purchases,
	}, nil
}

// SetMonitors связывает сервисы с реестром мониторов.
func (a *AppServices) SetMonitors(m Monitors) {
	a.Activations.SetMonitors(m)
	a.Purchases.SetMonitors(m)
}
