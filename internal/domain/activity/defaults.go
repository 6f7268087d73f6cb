package activity

import "time"

// DefaultActivities returns the list served when the activities slot is absent or unreadable.
//
// Each call returns a fresh slice so callers may mutate it freely.
func DefaultActivities() []Activity {
	seeded := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	return []Activity{
		{
			ID:           "act-1",
			Title:        "Bagi-bagi Takjil Ramadhan",
			Description:  "Kegiatan pembagian takjil untuk masyarakat di area masjid dan sekitarnya.",
			Date:         "2024-03-15",
			Location:     "Masjid Al-Ikhlas, Jakarta",
			Category:     "Ramadhan",
			Status:       StatusUpcoming,
			Participants: 45,
			CreatedAt:    seeded,
		},
		{
			ID:           "act-2",
			Title:        "Santunan Anak Yatim",
			Description:  "Program pemberian santunan dan perlengkapan sekolah untuk anak-anak yatim.",
			Date:         "2024-02-20",
			Location:     "Panti Asuhan Harapan",
			Category:     "Santunan",
			Status:       StatusCompleted,
			Participants: 30,
			CreatedAt:    seeded,
		},
		{
			ID:           "act-3",
			Title:        "Bakti Sosial Desa Binaan",
			Description:  "Kegiatan bakti sosial meliputi pembagian sembako dan pengobatan gratis.",
			Date:         "2024-01-10",
			Location:     "-6.5950, 106.8166",
			Category:     "Baksos",
			Status:       StatusCompleted,
			Participants: 60,
			CreatedAt:    seeded,
		},
		{
			ID:           "act-4",
			Title:        "Pengajian Bulanan",
			Description:  "Kajian rutin bulanan membahas tema keislaman dan pengembangan diri.",
			Date:         "2024-03-25",
			Location:     "-6.4025, 106.7942",
			Category:     "Pengajian",
			Status:       StatusUpcoming,
			Participants: 100,
			CreatedAt:    seeded,
		},
		{
			ID:           "act-5",
			Title:        "Donor Darah",
			Description:  "Kegiatan donor darah bekerja sama dengan PMI untuk membantu sesama.",
			Date:         "2024-04-05",
			Location:     "Gedung Serbaguna, Jakarta",
			Category:     "Kesehatan",
			Status:       StatusOngoing,
			Participants: 80,
			CreatedAt:    seeded,
		},
		{
			ID:           "act-6",
			Title:        "Bersih-Bersih Lingkungan",
			Description:  "Kegiatan gotong royong membersihkan lingkungan dan sungai.",
			Date:         "2023-12-15",
			Location:     "Kampung Melayu, Jakarta",
			Category:     "Lingkungan",
			Status:       StatusCompleted,
			Participants: 40,
			CreatedAt:    seeded,
		},
	}
}
