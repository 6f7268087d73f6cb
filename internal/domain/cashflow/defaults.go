package cashflow

import "time"

// DefaultItems returns the list served when the cashflow slot is absent or unreadable.
func DefaultItems() []Item {
	seeded := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	return []Item{
		{ID: "cf-1", Title: "Donasi Anggota Bulan Maret", Description: "Iuran dan donasi rutin anggota.", Amount: 5000000, Type: TypeIncome, Category: CategoryDonation, Date: "2024-03-15", CreatedAt: seeded},
		{ID: "cf-2", Title: "Pembelian Sembako Baksos", Description: "Paket sembako untuk bakti sosial.", Amount: 2500000, Type: TypeExpense, Category: CategorySupplies, Date: "2024-03-12", CreatedAt: seeded},
		{ID: "cf-3", Title: "Sponsor Kegiatan Ramadhan", Description: "Dukungan sponsor untuk kegiatan Ramadhan.", Amount: 7500000, Type: TypeIncome, Category: CategoryDonation, Date: "2024-03-10", CreatedAt: seeded},
		{ID: "cf-4", Title: "Santunan Anak Yatim", Description: "Dana santunan dan perlengkapan sekolah.", Amount: 3000000, Type: TypeExpense, Category: CategoryOther, Date: "2024-03-05", CreatedAt: seeded},
		{ID: "cf-5", Title: "Donasi Tambahan", Description: "Donasi dari donatur umum.", Amount: 2000000, Type: TypeIncome, Category: CategoryDonation, Date: "2024-03-01", CreatedAt: seeded},
		{ID: "cf-6", Title: "Operasional", Description: "Biaya operasional sekretariat.", Amount: 900000, Type: TypeExpense, Category: CategoryOperational, Date: "2024-02-27", CreatedAt: seeded},
	}
}
