package core

// sampleRecords is a small dataset shared by the pipeline tests.
func sampleRecords() []Record {
	return []Record{
		{Species: "Heron", DateObserved: "01/04/2024", Observer: "Alice", Adults: 2, Nests: 1, Total: 3, Comment: "near the reed bed"},
		{Species: "Duck", DateObserved: "02/04/2024", Observer: "Bob", Total: 0, Comment: "none seen"},
		{Species: "Swan", DateObserved: "03/04/2024", Observer: "Alice", Eggs: 4, Adults: 2, Nests: 1, Total: 6, Comment: "Pair on nest"},
		{Species: "Heron", DateObserved: "04/04/2024", Observer: "Carol", Adults: 1, Total: 1, Comment: "flew over the DUCK pond"},
		{Species: "Coot", DateObserved: "05/04/2024", Observer: "Bob", Offspring: 5, Adults: 2, Total: 7, Comment: ""},
	}
}

const sampleCSV = "Species,Date observed,Observer,No eggs,No of offspring’s,No of nests,No adults,Total,Comment\n" +
	"Heron,01/04/2024,Alice,0,0,1,2,3,near the reed bed\n" +
	"Duck,02/04/2024,Bob,,,,,0,none seen\n" +
	"Swan,03/04/2024,Alice,4,0,1,2,6,Pair on nest\n"
