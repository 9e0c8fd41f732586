package catalog

// Category is a fixed marketplace category slug
type Category string

const (
	CategoryVehiculos             Category = "vehiculos"
	CategoryInmuebles             Category = "inmuebles"
	CategorySupermercado          Category = "supermercado"
	CategoryTecnologia            Category = "tecnologia"
	CategoryHogarMuebles          Category = "hogar_muebles"
	CategoryElectrodomesticos     Category = "electrodomesticos"
	CategoryHerramientas          Category = "herramientas"
	CategoryConstruccion          Category = "construccion"
	CategoryDeportesFitness       Category = "deportes_fitness"
	CategoryAccesoriosVehiculos   Category = "accesorios_vehiculos"
	CategoryModa                  Category = "moda"
	CategoryBelleza               Category = "belleza"
	CategorySalud                 Category = "salud"
	CategoryJuguetes              Category = "juguetes"
	CategoryBebes                 Category = "bebes"
	CategoryMascotas              Category = "mascotas"
	CategoryLibros                Category = "libros"
	CategoryMusicaPeliculas       Category = "musica_peliculas"
	CategoryInstrumentosMusicales Category = "instrumentos_musicales"
	CategoryConsolasVideojuegos   Category = "consolas_videojuegos"
	CategoryCamarasAccesorios     Category = "camaras_accesorios"
	CategoryCelularesTelefonia    Category = "celulares_telefonia"
	CategoryComputacion           Category = "computacion"
	CategoryTabletsAccesorios     Category = "tablets_accesorios"
	CategoryTelevisores           Category = "televisores"
	CategoryAudio                 Category = "audio"
	CategoryComponentes           Category = "componentes_electronicos"
	CategoryIndustriasOficinas    Category = "industrias_oficinas"
	CategoryAgro                  Category = "agro"
	CategoryArteLibreria          Category = "arte_libreria"
	CategoryAntiguedades          Category = "antiguedades"
	CategorySouvenirs             Category = "souvenirs"
	CategoryServicios             Category = "servicios"
	CategoryOtros                 Category = "otros"
)

// categoryNames maps category slugs to their display names
var categoryNames = map[Category]string{
	CategoryVehiculos:             "Vehículos",
	CategoryInmuebles:             "Inmuebles",
	CategorySupermercado:          "Supermercado",
	CategoryTecnologia:            "Tecnología",
	CategoryHogarMuebles:          "Hogar, Muebles y Jardín",
	CategoryElectrodomesticos:     "Electrodomésticos",
	CategoryHerramientas:          "Herramientas",
	CategoryConstruccion:          "Construcción",
	CategoryDeportesFitness:       "Deportes y Fitness",
	CategoryAccesoriosVehiculos:   "Accesorios para Vehículos",
	CategoryModa:                  "Moda",
	CategoryBelleza:               "Belleza y Cuidado Personal",
	CategorySalud:                 "Salud y Equipamiento Médico",
	CategoryJuguetes:              "Juguetes y Juegos",
	CategoryBebes:                 "Bebés",
	CategoryMascotas:              "Animales y Mascotas",
	CategoryLibros:                "Libros, Revistas y Comics",
	CategoryMusicaPeliculas:       "Música, Películas y Series",
	CategoryInstrumentosMusicales: "Instrumentos Musicales",
	CategoryConsolasVideojuegos:   "Consolas y Videojuegos",
	CategoryCamarasAccesorios:     "Cámaras y Accesorios",
	CategoryCelularesTelefonia:    "Celulares y Telefonía",
	CategoryComputacion:           "Computación",
	CategoryTabletsAccesorios:     "Tablets y Accesorios",
	CategoryTelevisores:           "Televisores",
	CategoryAudio:                 "Audio",
	CategoryComponentes:           "Componentes Electrónicos",
	CategoryIndustriasOficinas:    "Industrias y Oficinas",
	CategoryAgro:                  "Agro",
	CategoryArteLibreria:          "Arte, Librería y Mercería",
	CategoryAntiguedades:          "Antigüedades y Colecciones",
	CategorySouvenirs:             "Souvenirs, Cotillón y Fiestas",
	CategoryServicios:             "Servicios",
	CategoryOtros:                 "Otros",
}

// DefaultCategory is used when no category is provided
const DefaultCategory = CategoryOtros

// IsValid reports whether the category is one of the known slugs
func (c Category) IsValid() bool {
	_, ok := categoryNames[c]
	return ok
}

// DisplayName returns the human-readable category name
func (c Category) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}

// AllCategories returns every known category slug
func AllCategories() []Category {
	out := make([]Category, 0, len(categoryNames))
	for c := range categoryNames {
		out = append(out, c)
	}
	return out
}
