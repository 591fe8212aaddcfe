package service

import "github.com/user/streamflix/internal/repository"

// Services 业务服务集合
type Services struct {
	Catalog *CatalogService
	Viewing *ViewingService
	Account *AccountService
	Admin   *CatalogAdminService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories) *Services {
	catalog := NewCatalogService(repos.Movie)
	return &Services{
		Catalog: catalog,
		Viewing: NewViewingService(repos, catalog),
		Account: NewAccountService(repos.User),
		Admin:   NewCatalogAdminService(repos),
	}
}
